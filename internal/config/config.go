// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package config reads the adapter configuration from the environment.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/schema"
)

// Environment variables holding the required Azure identifiers.
const (
	TenantIDKey       = "AZURE_TENANT_ID"
	ClientIDKey       = "AZURE_CLIENT_ID"
	ClientSecretKey   = "AZURE_CLIENT_SECRET"
	SubscriptionIDKey = "AZURE_SUBSCRIPTION_ID"
	UserDomainKey     = "AZURE_UDOMAIN"
)

// Environment variables holding optional settings.
const (
	PortKey                  = "ADAPTER_PORT"
	LogConfigKey             = "ADAPTER_LOG_CONFIG"
	LogFileKey               = "ADAPTER_LOG_FILE"
	MetricsAddrKey           = "ADAPTER_METRICS_ADDR"
	ResourceGroupLocationKey = "ADAPTER_RESOURCE_GROUP_LOCATION"
	GroupTagKeyKey           = "ADAPTER_GROUP_TAG_KEY"
	MaxUsersKey              = "ADAPTER_MAX_USERS"
)

// Defaults for optional settings.
const (
	DefaultPort                  = 50053
	DefaultLogConfig             = "<root>=INFO"
	DefaultResourceGroupLocation = "westeurope"
	DefaultGroupTagKey           = "Group"
)

var requiredKeys = []string{
	TenantIDKey,
	ClientIDKey,
	ClientSecretKey,
	SubscriptionIDKey,
	UserDomainKey,
}

var optionalFields = schema.Fields{
	PortKey:                  schema.Int(),
	LogConfigKey:             schema.String(),
	LogFileKey:               schema.String(),
	MetricsAddrKey:           schema.String(),
	ResourceGroupLocationKey: schema.String(),
	GroupTagKeyKey:           schema.String(),
	MaxUsersKey:              schema.Int(),
}

var optionalDefaults = schema.Defaults{
	PortKey:                  int64(DefaultPort),
	LogConfigKey:             DefaultLogConfig,
	LogFileKey:               "",
	MetricsAddrKey:           "",
	ResourceGroupLocationKey: DefaultResourceGroupLocation,
	GroupTagKeyKey:           DefaultGroupTagKey,
	MaxUsersKey:              int64(0),
}

// Config is the process wide configuration. It is built once at startup
// and handed to every component that needs it.
type Config struct {
	TenantID       string
	ClientID       string
	ClientSecret   string
	SubscriptionID string
	UserDomain     string

	// Port is the TCP port the gRPC server listens on.
	Port int

	// LogConfig is a loggo logging configuration string.
	LogConfig string

	// LogFile, when set, receives log output in addition to stderr.
	LogFile string

	// MetricsAddr, when set, serves Prometheus metrics over HTTP.
	MetricsAddr string

	// ResourceGroupLocation is the region of resource groups created for
	// new groups.
	ResourceGroupLocation string

	// GroupTagKey is the tag key identifying the group owning a resource.
	GroupTagKey string

	// MaxUsers caps the number of directory users. Zero means unlimited.
	MaxUsers int
}

// Load builds a Config from the variables returned by getenv. All missing
// required variables are reported together.
func Load(getenv func(string) string) (*Config, error) {
	var missing []string
	required := make(map[string]string)
	for _, key := range requiredKeys {
		value := strings.TrimSpace(getenv(key))
		if value == "" {
			missing = append(missing, key)
			continue
		}
		required[key] = value
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.NotValidf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	attrs := make(map[string]interface{})
	for key := range optionalFields {
		if value := strings.TrimSpace(getenv(key)); value != "" {
			attrs[key] = value
		}
	}
	coerced, err := schema.FieldMap(optionalFields, optionalDefaults).Coerce(attrs, nil)
	if err != nil {
		return nil, errors.Annotate(err, "parsing adapter settings")
	}
	values := coerced.(map[string]interface{})

	cfg := &Config{
		TenantID:              required[TenantIDKey],
		ClientID:              required[ClientIDKey],
		ClientSecret:          required[ClientSecretKey],
		SubscriptionID:        required[SubscriptionIDKey],
		UserDomain:            strings.TrimPrefix(required[UserDomainKey], "@"),
		Port:                  int(values[PortKey].(int64)),
		LogConfig:             values[LogConfigKey].(string),
		LogFile:               values[LogFileKey].(string),
		MetricsAddr:           values[MetricsAddrKey].(string),
		ResourceGroupLocation: values[ResourceGroupLocationKey].(string),
		GroupTagKey:           values[GroupTagKeyKey].(string),
		MaxUsers:              int(values[MaxUsersKey].(int64)),
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return cfg, nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	for key, value := range map[string]string{
		TenantIDKey:       c.TenantID,
		ClientIDKey:       c.ClientID,
		ClientSecretKey:   c.ClientSecret,
		SubscriptionIDKey: c.SubscriptionID,
		UserDomainKey:     c.UserDomain,
	} {
		if value == "" {
			return errors.NotValidf("empty %s", key)
		}
	}
	if strings.Contains(strings.ToLower(c.SubscriptionID), "://") || strings.Contains(c.SubscriptionID, "/") {
		return errors.NotValidf("subscription ID %q", c.SubscriptionID)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.NotValidf("port %d", c.Port)
	}
	if c.GroupTagKey == "" {
		return errors.NotValidf("empty group tag key")
	}
	if c.MaxUsers < 0 {
		return errors.NotValidf("negative limit")
	}
	return nil
}

// ListenAddress returns the address the gRPC server binds to.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SubscriptionScope returns the ARM scope of the configured subscription.
func (c *Config) SubscriptionScope() string {
	return "/subscriptions/" + c.SubscriptionID
}
