package auth

import (
	"github.com/AlecAivazis/survey/v2"
)

// SurveyPrompter asks on the terminal. The password is never echoed.
type SurveyPrompter struct {
	Options []survey.AskOpt
}

func (p SurveyPrompter) Username() (string, error) {
	var username string
	err := survey.AskOne(&survey.Input{Message: "Username:"}, &username,
		append(p.Options, survey.WithValidator(survey.Required))...)
	return username, err
}

func (p SurveyPrompter) Password() (string, error) {
	var password string
	err := survey.AskOne(&survey.Password{Message: "Password:"}, &password,
		append(p.Options, survey.WithValidator(survey.Required))...)
	return password, err
}
