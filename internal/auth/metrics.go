package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// login results
const (
	loginSuccess            = "success"
	loginInvalidCredentials = "invalid_credentials"
	loginNotFound           = "not_found"
	loginInactive           = "inactive"
	loginError              = "error"
)

var logins = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "golibadmin_logins_total",
	Help: "Login attempts by result",
}, []string{"result"})
