package backend

import (
	"fmt"

	"freela/internal/config"
)

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	c := Config{
		Type:                BackendType(appConfig.DataBackend),
		SQLiteDBPath:        appConfig.SQLiteDBPath,
		AMQPURL:             appConfig.AMQPURL,
		AMQPExchange:        appConfig.AMQPExchange,
		AMQPQueue:           appConfig.AMQPQueue,
		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
		ReportsSheetName:    appConfig.ReportsSheetName,
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.Type == SQLiteBackend && c.SQLiteDBPath == "" {
		return fmt.Errorf("SQLite database path is required for sqlite backend")
	}
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		return fmt.Errorf("AMQP exchange and queue are required when AMQP URL is set")
	}
	return nil
}
