package app

import (
	"go.uber.org/fx"

	adapterbilling "github.com/pratoapp/prato/internal/adapter/billing"
	"github.com/pratoapp/prato/internal/adapter/geocoder"
	"github.com/pratoapp/prato/internal/cache"
	"github.com/pratoapp/prato/internal/config"
	"github.com/pratoapp/prato/internal/database"
	"github.com/pratoapp/prato/internal/logger"
	"github.com/pratoapp/prato/internal/messaging"
	"github.com/pratoapp/prato/internal/observability"
	repositorycashregister "github.com/pratoapp/prato/internal/repository/cashregister"
	repositorycustomer "github.com/pratoapp/prato/internal/repository/customer"
	repositorydeliverer "github.com/pratoapp/prato/internal/repository/deliverer"
	repositorydeliveryarea "github.com/pratoapp/prato/internal/repository/deliveryarea"
	repositoryorder "github.com/pratoapp/prato/internal/repository/order"
	repositorystore "github.com/pratoapp/prato/internal/repository/store"
	httpserver "github.com/pratoapp/prato/internal/server/http"
	servicebilling "github.com/pratoapp/prato/internal/service/billing"
	servicecashregister "github.com/pratoapp/prato/internal/service/cashregister"
	servicedeliverer "github.com/pratoapp/prato/internal/service/deliverer"
	servicedeliveryarea "github.com/pratoapp/prato/internal/service/deliveryarea"
	servicedeliveryfee "github.com/pratoapp/prato/internal/service/deliveryfee"
	serviceorder "github.com/pratoapp/prato/internal/service/order"
	transporthttp "github.com/pratoapp/prato/internal/transport/http"
	"github.com/pratoapp/prato/internal/worker"
	workerorder "github.com/pratoapp/prato/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	geocoder.Module,
	adapterbilling.Module,
	repositorystore.Module,
	repositorycustomer.Module,
	repositorydeliveryarea.Module,
	repositorydeliverer.Module,
	repositoryorder.Module,
	repositorycashregister.Module,
	serviceorder.Module,
	servicedeliveryfee.Module,
	servicedeliveryarea.Module,
	servicedeliverer.Module,
	servicecashregister.Module,
	servicebilling.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
