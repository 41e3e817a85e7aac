package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	Firebase  FirebaseConfig
	WhatsApp  WhatsAppConfig
	Scheduler SchedulerConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type FirebaseConfig struct {
	CredentialsFile string
}

type WhatsAppConfig struct {
	BaseURL          string
	AuthKey          string
	IntegratedNumber string
	Namespace        string
	ReminderTemplate string
	WelcomeTemplate  string
	Timeout          time.Duration
}

type SchedulerConfig struct {
	// Hour/Minute of the daily sweep in the server's local time.
	Hour   int
	Minute int
	// SendTimeout bounds every external send; a timed-out send is a failure.
	SendTimeout time.Duration
	// LockTTL is the redis sweep-lock lifetime. Best effort only: the claim
	// protocol remains the correctness mechanism under overlap.
	LockTTL time.Duration
}

type AdminConfig struct {
	APIKey string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	sendTimeout, err := time.ParseDuration(viper.GetString("SCHEDULER_SEND_TIMEOUT"))
	if err != nil {
		sendTimeout = 15 * time.Second
	}

	lockTTL, err := time.ParseDuration(viper.GetString("SCHEDULER_LOCK_TTL"))
	if err != nil {
		lockTTL = 10 * time.Minute
	}

	whatsAppTimeout, err := time.ParseDuration(viper.GetString("WHATSAPP_TIMEOUT"))
	if err != nil {
		whatsAppTimeout = 15 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Firebase: FirebaseConfig{
			CredentialsFile: viper.GetString("FIREBASE_CREDENTIALS_FILE"),
		},
		WhatsApp: WhatsAppConfig{
			BaseURL:          viper.GetString("WHATSAPP_BASE_URL"),
			AuthKey:          viper.GetString("WHATSAPP_AUTH_KEY"),
			IntegratedNumber: viper.GetString("WHATSAPP_INTEGRATED_NUMBER"),
			Namespace:        viper.GetString("WHATSAPP_NAMESPACE"),
			ReminderTemplate: viper.GetString("WHATSAPP_REMINDER_TEMPLATE"),
			WelcomeTemplate:  viper.GetString("WHATSAPP_WELCOME_TEMPLATE"),
			Timeout:          whatsAppTimeout,
		},
		Scheduler: SchedulerConfig{
			Hour:        viper.GetInt("SCHEDULER_HOUR"),
			Minute:      viper.GetInt("SCHEDULER_MINUTE"),
			SendTimeout: sendTimeout,
			LockTTL:     lockTTL,
		},
		Admin: AdminConfig{
			APIKey: viper.GetString("ADMIN_API_KEY"),
		},
	}

	return config, nil
}
