package kafka_config

import "time"

const (
	// Empty disables event publishing.
	DefaultKafkaBrokers = ""

	DefaultEventsTopic = "restaurant.events"
	DefaultDLQTopic    = ""

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1 // Require all replicas
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false

	DefaultEnableMiddleware = true
)
