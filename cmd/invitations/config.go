package main

import (
	"github.com/dmitrymomot/invitations/pkg/email"
	"github.com/dmitrymomot/invitations/pkg/httpserver"
	"github.com/dmitrymomot/invitations/svc/invitation"
)

const (
	driverMemory = "memory"
	driverMongo  = "mongo"
)

type appConfig struct {
	AppName     string `env:"APP_NAME" envDefault:"invitations"`
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`
	ReadOnly    bool   `env:"INVITATIONS_READ_ONLY" envDefault:"false"`

	HTTP     httpserver.Config
	Email    email.Config
	Dispatch invitation.DispatchConfig
}
