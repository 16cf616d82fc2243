package memcache_fx

import (
	"go.uber.org/fx"

	mem "cozyminds/pkg/memcache"
)

var Module = fx.Provide(provideDenylist)

func provideDenylist() mem.TokenDenylist {
	return mem.NewRevokedTokens()
}
