package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/farmsip-backend/api/responses"
	"github.com/angelmondragon/farmsip-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
	"github.com/angelmondragon/farmsip-backend/pkg/logger"
)

const (
	envHeader          = "X-FarmSIP-Env"
	readyCheckDeadline = 2 * time.Second
)

type pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessCheck names one dependency probed by /health/ready.
type ReadinessCheck struct {
	Name   string
	Pinger pinger
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every configured dependency and reports the first failure.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx, cancel := context.WithTimeout(r.Context(), readyCheckDeadline)
		defer cancel()

		for _, check := range checks {
			if check.Pinger == nil {
				continue
			}
			if err := check.Pinger.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.Name+" unavailable").
						WithDetails(map[string]any{"dependency": check.Name}))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
