package main

import (
	getdecision "fieldservice-dashboard/http-server/decision/get"
	getengineers "fieldservice-dashboard/http-server/engineers/get"
	generate_excel "fieldservice-dashboard/http-server/generate-report/generate-excel"
	getmachines "fieldservice-dashboard/http-server/machines/get"
	getrecords "fieldservice-dashboard/http-server/records/get"
	saverecords "fieldservice-dashboard/http-server/records/save"
	getrelationships "fieldservice-dashboard/http-server/relationships/get"
	getresolution "fieldservice-dashboard/http-server/resolution-times/get"
	getsotime "fieldservice-dashboard/http-server/so-time/get"
	getstock "fieldservice-dashboard/http-server/stock/get"
	upstock "fieldservice-dashboard/http-server/stock/update"
	gettraining "fieldservice-dashboard/http-server/training/get"
	"fieldservice-dashboard/internal/config"
	"fieldservice-dashboard/internal/middleware/auth"
	"fieldservice-dashboard/internal/service/dashboard"
	generate_excel2 "fieldservice-dashboard/internal/service/generate-excel"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func routes(cfg config.Config, log *slog.Logger, svc *dashboard.Service, genService *generate_excel2.GenerateExcelService) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{dashboard.SnapshotIDHeader, "Content-Disposition"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Handle("/metrics", promhttp.Handler())

	// Аналитика по страницам дашборда
	router.Route("/api/analytics", func(r chi.Router) {
		r.Get("/training", gettraining.GetTrainingKPIs(log, svc))
		r.Get("/engineers", getengineers.GetEngineerKPIs(log, svc))
		r.Get("/machines", getmachines.GetMachineKPIs(log, svc))
		r.Get("/stock", getstock.GetStockKPIs(log, svc))
		r.Get("/decision", getdecision.GetDecision(log, svc))
		r.Get("/so-time", getsotime.GetSOTimeTracking(log, svc))
		r.Get("/relationships", getrelationships.GetRelationships(log, svc))
		r.Get("/resolution-times", getresolution.GetResolutionTimes(log, svc))
	})

	router.Get("/api/report/stock-alerts", generate_excel.GenerateStockAlertsExcel(log, genService))

	// Сырые коллекции: engineers, machines, stock-parts, so-data, leveling
	router.Get("/api/{resource}", getrecords.GetRecords(log, svc))
	router.Get("/api/{resource}/{key}", getrecords.GetRecord(log, svc))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.Admin.Login, cfg.Admin.Password))

	adminRouter.Put("/stock-parts/{partNumber}", upstock.UpdateStockPart(log, svc))
	adminRouter.Put("/records/{resource}/{key}", saverecords.SaveRecord(log, svc))

	router.Mount("/api/admin", adminRouter)

	return router
}
