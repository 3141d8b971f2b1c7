// Code scaffolded by goctl. Safe to edit.
package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"marketproxy/internal/logic"
	"marketproxy/internal/svc"
	"marketproxy/internal/types"
)

func StockQuoteHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SymbolReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewStockQuoteLogic(r.Context(), svcCtx)
		writeResult(w, svcCtx.Store.TTL(), l.StockQuote(&req))
	}
}
