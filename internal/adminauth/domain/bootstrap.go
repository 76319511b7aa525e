package domain

// BootstrapData carries the first-boot admin account settings sourced from
// environment configuration. Only applied when the accounts table is empty.
type BootstrapData struct {
	Name              string
	Email             string
	Password          string
	SecondaryPassword string
	TwoFactorEnabled  bool
}
