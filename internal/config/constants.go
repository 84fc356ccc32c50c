package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./linkhive.db"

	// DefaultUsername is the account used when no explicit user is
	// configured (single-user deployments)
	DefaultUsername = "admin"

	// DefaultTagColor is the fallback swatch for tags without a derived
	// color
	DefaultTagColor = "#6366f1"
)
