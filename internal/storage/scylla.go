package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/config"
)

var consistencies = map[string]gocql.Consistency{
	"ANY":          gocql.Any,
	"ONE":          gocql.One,
	"TWO":          gocql.Two,
	"THREE":        gocql.Three,
	"QUORUM":       gocql.Quorum,
	"ALL":          gocql.All,
	"LOCAL_QUORUM": gocql.LocalQuorum,
	"EACH_QUORUM":  gocql.EachQuorum,
	"LOCAL_ONE":    gocql.LocalOne,
}

// NewScyllaSession erstellt eine gocql Session für cfg
func NewScyllaSession(cfg config.ScyllaConfig) (*gocql.Session, error) {
	cluster, err := NewClusterConfig(cfg)
	if err != nil {
		return nil, err
	}
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("create scylla session: %w", err)
	}
	return session, nil
}

// NewClusterConfig übersetzt cfg in eine gocql Cluster-Konfiguration.
// Es wird kein Keyspace gebunden, jedes Statement nennt seinen Keyspace.
func NewClusterConfig(cfg config.ScyllaConfig) (*gocql.ClusterConfig, error) {
	cons, ok := consistencies[strings.ToUpper(cfg.Consistency)]
	if !ok {
		if cfg.Consistency != "" {
			return nil, fmt.Errorf("unknown consistency %q", cfg.Consistency)
		}
		cons = gocql.Quorum
	}

	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Port = cfg.Port
	cluster.Consistency = cons
	cluster.ProtoVersion = cfg.ProtoVersion
	cluster.Timeout = cfg.Timeout
	cluster.ConnectTimeout = cfg.ConnectTimeout
	cluster.NumConns = cfg.NumConns
	// Token-aware, optional DC-aware: Anfragen gehen an die Replikas
	if cfg.LocalDC != "" {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.DCAwareRoundRobinPolicy(cfg.LocalDC))
	} else {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	}
	// Scylla-spezifische Einstellungen für Container/Cloud
	cluster.DisableInitialHostLookup = true
	cluster.IgnorePeerAddr = true
	cluster.RetryPolicy = &gocql.ExponentialBackoffRetryPolicy{NumRetries: 5, Min: 200 * time.Millisecond, Max: 3 * time.Second}
	if cfg.ReconnectInterval > 0 {
		cluster.ReconnectionPolicy = &gocql.ConstantReconnectionPolicy{MaxRetries: 10, Interval: cfg.ReconnectInterval}
	}
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{Username: cfg.Username, Password: cfg.Password}
	}
	if cfg.TLS.Enabled() {
		cluster.SslOpts = &gocql.SslOptions{
			CertPath:               cfg.TLS.CertPath,
			KeyPath:                cfg.TLS.KeyPath,
			CaPath:                 cfg.TLS.CaPath,
			EnableHostVerification: cfg.TLS.VerifyHost,
		}
	}
	return cluster, nil
}
