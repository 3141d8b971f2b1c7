package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"marketproxy/internal/cache"
	"marketproxy/internal/proxy"
	"marketproxy/internal/svc"
	"marketproxy/internal/types"
	"marketproxy/internal/validate"
	"marketproxy/pkg/upstream"
)

type CryptoPricesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCryptoPricesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CryptoPricesLogic {
	return &CryptoPricesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// CryptoPrices proxies the simple-price upstream through the cache, passing
// the upstream body through verbatim.
func (l *CryptoPricesLogic) CryptoPrices(req *types.CryptoPricesReq) proxy.Result {
	ids := validate.CoinIDs(req.IDs)
	currency := validate.Currency(req.VsCurrencies)
	includeChange := validate.Flag(req.Include24hrChange, true)

	key := cache.PricesKey(ids, currency, includeChange)
	return l.svcCtx.Proxy.Serve(l.ctx, key, func(ctx context.Context) (*upstream.Reply, error) {
		return l.svcCtx.Crypto.SimplePrice(ctx, ids, currency, includeChange == "true")
	})
}
