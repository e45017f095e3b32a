package client

import "github.com/ilyakaznacheev/cleanenv"

// Env is the environment-derived client configuration. Both fields are
// optional; resolution order is handled by the CLI layer.
type Env struct {
	Server string `env:"FSTN_SERVER"`
	User   string `env:"FSTN_USER"`
}

// ReadEnv loads client settings from the process environment.
func ReadEnv() (Env, error) {
	var e Env
	if err := cleanenv.ReadEnv(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}
