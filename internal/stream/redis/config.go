package redis

type RedisStreamConfig struct {
	RedisAddr       string
	RedisPassword   string
	ConnectAttempts int
	Stream          string
	ResultStream    string
	Group           string
	ConsumerName    string
}

func NewRedisStreamConfig(redisAddr string, redisPassword string, stream string, resultStream string, group string, consumerName string) *RedisStreamConfig {
	return &RedisStreamConfig{
		RedisAddr:       redisAddr,
		RedisPassword:   redisPassword,
		ConnectAttempts: 5,
		Stream:          stream,
		ResultStream:    resultStream,
		Group:           group,
		ConsumerName:    consumerName,
	}
}
