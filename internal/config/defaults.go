package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "test_db",
}

var defaultKafka = Kafka{
	GroupID:     "courier-dispatch",
	OrdersTopic: "orders",
}

var defaultStatusSync = StatusSync{
	MaxAttempts: 3,
	RetryDelay:  time.Second,
	Timeout:     10 * time.Second,
}

var defaultChat = Chat{
	BaseURL: "https://api.telegram.org",
	Timeout: 15 * time.Second,
}

var defaultDispatch = Dispatch{
	AssignmentTTL: 30 * time.Minute,
	SweepInterval: time.Minute,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       5,
	Burst:      10,
	TTL:        5 * time.Minute,
	MaxBuckets: 10000,
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultKafka returns the default consumer settings, with no brokers.
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultStatusSync returns the default status sync settings.
func DefaultStatusSync() StatusSync {
	return defaultStatusSync
}

// DefaultChat returns the default chat settings.
func DefaultChat() Chat {
	return defaultChat
}

// DefaultDispatch returns the default dispatch settings.
func DefaultDispatch() Dispatch {
	return defaultDispatch
}

// DefaultRateLimit returns the default rate limit settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultAdmin returns the admin listener settings, disabled.
func DefaultAdmin() Admin {
	return Admin{}
}
