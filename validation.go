package journal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var validate *validator.Validate
var once sync.Once

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New(errMsgNilConfig)
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%s %w", errMsgConfigInvalid, err)
	}

	if _, err := zerolog.ParseLevel(cfg.MirrorLevel); err != nil {
		return fmt.Errorf("%s mirror level: %w", errMsgConfigInvalid, err)
	}

	return nil
}
