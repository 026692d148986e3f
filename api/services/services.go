package services

import (
	"github.com/EO-DataHub/eodhp-staff-directory/internal/appconfig"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/connectivity"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/store"
)

// Service contains all shared dependencies for handlers.
type Service struct {
	Config       *appconfig.Config
	Store        *store.Store
	Connectivity connectivity.Checker
}
