// Code scaffolded by goctl. Safe to edit.
package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"marketproxy/internal/svc"
	"marketproxy/internal/types"
)

// HealthHandler answers liveness probes. It touches no upstream and no cache.
func HealthHandler(_ *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.OkJsonCtx(r.Context(), w, types.HealthResp{Status: "ok"})
	}
}
