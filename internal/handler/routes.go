// Code scaffolded by goctl. Safe to edit.
package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"marketproxy/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/healthz",
				Handler: HealthHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/crypto/prices",
				Handler: CryptoPricesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/crypto/markets",
				Handler: CryptoMarketsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/stocks/quote",
				Handler: StockQuoteHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/markets/chart",
				Handler: ChartQuoteHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/dashboard",
				Handler: DashboardHandler(serverCtx),
			},
		},
	)
}
