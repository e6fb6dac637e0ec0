package database

import (
	"net/url"
	"strconv"

	"github.com/rickgao/orbit-tracker/internal/config"
)

// BuildConnString builds a PostgreSQL connection URL from config.
// User and password are escaped as URL userinfo.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	host := cfg.Host
	if cfg.Port != 0 {
		host += ":" + strconv.Itoa(cfg.Port)
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     host,
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}
