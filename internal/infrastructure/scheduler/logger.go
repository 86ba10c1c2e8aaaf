package scheduler

import (
	"context"
	"crypto-price-bot/internal/infrastructure/logging"
)

// cronLogger adapta cron.Logger al logger estructurado
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logging.Debug(context.Background(), "cron: "+msg, toFields(keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logging.ErrorWithError(context.Background(), "cron: "+msg, err, toFields(keysAndValues))
}

// toFields convierte pares clave/valor de cron en Fields
func toFields(keysAndValues []interface{}) logging.Fields {
	fields := logging.Fields{logging.FieldComponent: "scheduler"}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}
