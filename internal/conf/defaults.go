// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "GreenPulse")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "greenpulse.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)
	viper.SetDefault("main.log.rotationday", time.Sunday)

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.port", "8080")

	viper.SetDefault("webserver.log.enabled", false)
	viper.SetDefault("webserver.log.path", "web.log")
	viper.SetDefault("webserver.log.rotation", RotationDaily)
	viper.SetDefault("webserver.log.maxsize", 1048576)
	viper.SetDefault("webserver.log.rotationday", time.Sunday)

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "greenpulse.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "greenpulse")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.database", "greenpulse")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", 3306)

	viper.SetDefault("ingest.debug", false)
	viper.SetDefault("ingest.maxuploadsizemb", 25)
	viper.SetDefault("ingest.batchsize", 500)

	viper.SetDefault("forecast.debug", false)
	viper.SetDefault("forecast.model", "seasonal-trend")
	viper.SetDefault("forecast.periods", 12)
	viper.SetDefault("forecast.intervalwidth", 0.8)

	viper.SetDefault("dashboard.cachettlseconds", 60)

	viper.SetDefault("identity.provider", "static")
	viper.SetDefault("identity.userid", "1")
	viper.SetDefault("identity.username", "dev")

	viper.SetDefault("integrations.mqtt.enabled", false)
	viper.SetDefault("integrations.mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("integrations.mqtt.topic", "greenpulse/emissions")
	viper.SetDefault("integrations.mqtt.username", "")
	viper.SetDefault("integrations.mqtt.password", "")
	viper.SetDefault("integrations.mqtt.retain", false)

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.listen", "0.0.0.0:8090")
}
