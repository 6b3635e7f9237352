package redisw

import (
	"net"
	"time"
)

type RedisConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     string `json:"port" yaml:"port"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	// DialTimeout bounds the initial ping. Zero means five seconds.
	DialTimeout time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
}

func (c RedisConfig) Addr() string {
	host, port := c.Host, c.Port
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "6379"
	}
	return net.JoinHostPort(host, port)
}

// SetAddr splits a host:port pair such as REDIS_ADDR into the config.
func (c *RedisConfig) SetAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	c.Host, c.Port = host, port
	return nil
}
