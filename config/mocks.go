package config

import (
	"net/http"

	"github.com/ficap/dhwebapi/log"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type ConfigMock struct {
	mock.Mock
}

func NewConfigMock() *ConfigMock {
	return &ConfigMock{}
}

// Default points the mock at the given address, typically an httptest server URL.
func (o *ConfigMock) Default(baseURL string) *ConfigMock {
	o.On("BaseURL").Return(baseURL)
	o.On("APIVersion").Return(DefaultAPIVersion)
	o.On("HTTPClient").Return(&http.Client{Timeout: DefaultTimeout})
	o.On("Logger").Return(log.NewZapLogger(zap.NewExample()))
	return o
}

func (o *ConfigMock) BaseURL() string {
	args := o.Called()
	return args.String(0)
}

func (o *ConfigMock) APIVersion() string {
	args := o.Called()
	return args.String(0)
}

func (o *ConfigMock) HTTPClient() *http.Client {
	args := o.Called()
	return args.Get(0).(*http.Client)
}

func (o *ConfigMock) Logger() log.Logger {
	args := o.Called()
	return args.Get(0).(log.Logger)
}
