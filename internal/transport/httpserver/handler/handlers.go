package handler

import (
	landlorddomain "property-match-go/internal/domain/landlord"
	propertydomain "property-match-go/internal/domain/property"
	tenantdomain "property-match-go/internal/domain/tenant"
	userdomain "property-match-go/internal/domain/user"
	"property-match-go/pkg/logger"
)

type Handlers struct {
	Users      *userdomain.Service
	Landlords  *landlorddomain.Service
	Properties *propertydomain.Service
	Tenants    *tenantdomain.Service

	log logger.Logger
}

func New(users *userdomain.Service, landlords *landlorddomain.Service, properties *propertydomain.Service, tenants *tenantdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Users:      users,
		Landlords:  landlords,
		Properties: properties,
		Tenants:    tenants,
		log:        log,
	}
}
