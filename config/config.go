package config

import "time"

type Config struct {
	Web    Web
	Cors   Cors
	DB     DB
	Stripe Stripe
	Email  Email
	S3     S3
	Rate   Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:4000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type Cors struct {
	Origin string
}

type DB struct {
	User       string `conf:"default:postgres"`
	Password   string `conf:"default:postgres,mask"`
	Host       string `conf:"default:localhost"`
	Name       string `conf:"default:mentorx"`
	DisableTLS bool   `conf:"default:true"`
}

type Stripe struct {
	APISecret     string `conf:"mask"`
	WebhookSecret string `conf:"mask"`
	SuccessURL    string `conf:"default:http://localhost:3000/checkout/success"`
	CancelURL     string `conf:"default:http://localhost:3000/checkout/cancel"`

	// Platform commission applied on paid checkouts, in percent.
	FeePercent float64 `conf:"default:10"`
}

type Email struct {
	APIKey      string `conf:"mask"`
	FromAddress string `conf:"default:no-reply@mentorx.app"`
	FromName    string `conf:"default:MentorX"`
}

type S3 struct {
	Endpoint  string
	Region    string `conf:"default:us-east-1"`
	AccessKey string `conf:"mask"`
	SecretKey string `conf:"mask"`
	Bucket    string `conf:"default:mentorx-content"`
}

type Rate struct {
	Burst         int           `conf:"default:20"`
	Interval      time.Duration `conf:"default:100ms"`
	ExpiryMinutes int           `conf:"default:30"`
}
