package stream

// MqttConfig locates the broker and the topics a surface listens on.
type MqttConfig struct {
	URL      string `yaml:"url" env:"URL"`
	Username string `yaml:"username" env:"USERNAME"`
	Password string `yaml:"password" env:"PASSWORD"`
	ClientID string `yaml:"clientID" env:"CLIENT_ID"`
	Topics   struct {
		Frames string `yaml:"frames" env:"FRAMES_TOPIC"`
		Image  string `yaml:"image" env:"IMAGE_TOPIC"`
	} `yaml:"topics"`
}

type Config struct {
	Mqtt MqttConfig `yaml:"mqtt" envPrefix:"MQTT_"`

	// Seconds it takes to cross-fade to a newly set animation.
	TransitionSecs float64 `yaml:"transitionSecs"`
}
