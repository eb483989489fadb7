package app

import (
	"net/http"

	"gorm.io/gorm"

	"property-match-go/internal/clients/geocode"
	"property-match-go/internal/config"
	"property-match-go/internal/db"
	landlorddomain "property-match-go/internal/domain/landlord"
	postcodedomain "property-match-go/internal/domain/postcode"
	propertydomain "property-match-go/internal/domain/property"
	tenantdomain "property-match-go/internal/domain/tenant"
	userdomain "property-match-go/internal/domain/user"
	"property-match-go/internal/images"
	"property-match-go/internal/mail"
	landlordrepo "property-match-go/internal/repository/postgres/landlord"
	postcoderepo "property-match-go/internal/repository/postgres/postcode"
	propertyrepo "property-match-go/internal/repository/postgres/property"
	tenantrepo "property-match-go/internal/repository/postgres/tenant"
	userrepo "property-match-go/internal/repository/postgres/user"
	"property-match-go/internal/transport/httpserver"
	"property-match-go/internal/transport/httpserver/handler"
	"property-match-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: running migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	var imageStore propertydomain.ImageStore
	if cfg.Images.CloudinaryURL != "" {
		store, err := images.NewCloudinary(cfg.Images)
		if err != nil {
			return nil, err
		}
		imageStore = store
	} else {
		log.Warn("app: image uploads disabled, no cloudinary url configured")
		imageStore = images.NewDisabled()
	}

	postcodes := postcodedomain.NewService(postcoderepo.NewPostgres(dbConn), geocode.New(cfg.Geocode), log)
	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	landlords := landlorddomain.NewService(landlordrepo.NewPostgres(dbConn), mail.New(cfg.SMTP, log))
	properties := propertydomain.NewService(propertyrepo.NewPostgres(dbConn), postcodes, imageStore)
	tenants := tenantdomain.NewService(tenantrepo.NewPostgres(dbConn), postcodes, cfg.Matching.PageSize, log)

	log.Info("app: initializing router")
	handlers := handler.New(users, landlords, properties, tenants, log)
	router := httpserver.NewRouter(cfg, handlers, users, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
