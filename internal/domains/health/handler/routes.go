package handler

import (
	"net/http"

	"github.com/KSx23/archer/pkg/logger"
	"github.com/jmoiron/sqlx"
)

type Info struct {
	Status     string `json:"status"`
	Build      string `json:"build"`
	Host       string `json:"host"`
	Name       string `json:"name"`
	PodIP      string `json:"podIP"`
	Node       string `json:"node"`
	Namespace  string `json:"namespace"`
	GOMAXPROCS int    `json:"GOMAXPROCS"`
}

type Conf struct {
	DB    *sqlx.DB
	Log   *logger.Logger
	Build string
}

func RegisterRoutes(cfg Conf) *http.ServeMux {
	mux := http.NewServeMux()

	h := handler{
		db:    cfg.DB,
		log:   cfg.Log,
		build: cfg.Build,
	}

	mux.HandleFunc("/v1/readiness", h.readiness)
	mux.HandleFunc("/v1/liveness", h.liveness)
	return mux
}
