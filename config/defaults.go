package config

import "time"

// DefaultConfig returns the configuration applied when neither file nor
// environment provides a value.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:           8080,
			MetricsPort:        9090,
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       30 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			RateLimitRPS:       50,
			RateLimitBurst:     100,
			APIKeys:            nil,
			AllowQueryAPIKey:   false,
			CORSAllowedOrigins: nil,
		},
		Scheduler: SchedulerConfig{
			AgentID:        "tourist-scheduler",
			AgentName:      "Tourist Scheduler",
			AgentVersion:   "1.0.0",
			BaseURL:        "http://localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Dashboard: DashboardConfig{
			SinkURL:       "",
			NotifyTimeout: 3 * time.Second,
			SendBuffer:    16,
		},
		JWT: JWTConfig{
			Enabled: false,
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "json",
			OutputPaths: []string{"stdout"},
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			OTLPEndpoint: "localhost:4317",
			ServiceName:  "tourist-scheduler",
			SampleRate:   1.0,
		},
	}
}
