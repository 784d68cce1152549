package jyro

// Overridden at build time via -ldflags "-X ...".
var (
	Version   = "0.3.0"
	BuildDate = "dev"
)
