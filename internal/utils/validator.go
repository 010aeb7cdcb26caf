package utils

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	Validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		Validate = validator.New()
	})
}
