package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/elvispulaj/insight-forge/internal/config"
)

var once sync.Once
var pooled *http.Client

// PooledClient is the shared HTTP client handed to the hosted-model SDKs so
// embedding and completion calls reuse connections instead of redialing.
func PooledClient() *http.Client {
	once.Do(func() {
		pooled = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
				IdleConnTimeout:     config.IdleConnTimeout,
			},
		}
	})
	return pooled
}
