package main

import (
	"go.uber.org/fx"

	"github.com/pratoapp/prato/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
