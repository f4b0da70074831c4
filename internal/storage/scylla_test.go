package storage

import (
	"testing"
	"time"

	"github.com/gocql/gocql"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/config"
)

func TestNewClusterConfig(t *testing.T) {
	cfg := config.Default().Scylla
	cfg.Hosts = []string{"10.0.0.1", "10.0.0.2"}
	cfg.Consistency = "local_quorum"
	cfg.Username = "cassandra"
	cfg.Password = "secret"
	cfg.TLS = config.TLSConfig{CertPath: "cert.pem", KeyPath: "key.pem"}

	cluster, err := NewClusterConfig(cfg)
	if err != nil {
		t.Fatalf("NewClusterConfig: %v", err)
	}
	if len(cluster.Hosts) != 2 || cluster.Port != 9042 {
		t.Errorf("unexpected hosts %v port %d", cluster.Hosts, cluster.Port)
	}
	if cluster.Consistency != gocql.LocalQuorum {
		t.Errorf("consistency = %v, want LOCAL_QUORUM", cluster.Consistency)
	}
	if cluster.Keyspace != "" {
		t.Errorf("expected no bound keyspace, got %q", cluster.Keyspace)
	}
	auth, ok := cluster.Authenticator.(gocql.PasswordAuthenticator)
	if !ok || auth.Username != "cassandra" {
		t.Errorf("unexpected authenticator %#v", cluster.Authenticator)
	}
	if cluster.SslOpts == nil || cluster.SslOpts.CertPath != "cert.pem" || cluster.SslOpts.KeyPath != "key.pem" {
		t.Errorf("unexpected ssl options %#v", cluster.SslOpts)
	}
	policy, ok := cluster.ReconnectionPolicy.(*gocql.ConstantReconnectionPolicy)
	if !ok || policy.Interval != 100*time.Millisecond {
		t.Errorf("unexpected reconnection policy %#v", cluster.ReconnectionPolicy)
	}
}

func TestNewClusterConfigUnknownConsistency(t *testing.T) {
	cfg := config.Default().Scylla
	cfg.Consistency = "MOST"

	if _, err := NewClusterConfig(cfg); err == nil {
		t.Fatal("expected error for unknown consistency")
	}
}
