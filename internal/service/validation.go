package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jjenkins/parlamentar/internal/apperr"
	"github.com/jjenkins/parlamentar/internal/model"
)

// validate is shared by every input type of the package.
// Initialized in init() with the custom "uf" and "sexo" rules.
var validate *validator.Validate

var stateCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("uf", func(fl validator.FieldLevel) bool {
		return stateCodePattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("sexo", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "M" || s == "F"
	})
}

// fieldMessages maps "Struct.Field" to the message returned to clients
var fieldMessages = map[string]string{
	"LegislatorInput.Sex":       `O sexo deve ser "M" ou "F".`,
	"LegislatorInput.StateCode": "A sigla do estado deve ter exatamente 2 letras.",
	"ExpenditureInput.Year":     "O ano deve estar entre 1900 e 2100.",
	"ExpenditureInput.Month":    "O mês deve estar entre 1 e 12.",
	"ExpenditureUpdate.Year":    "O ano deve estar entre 1900 e 2100.",
	"ExpenditureUpdate.Month":   "O mês deve estar entre 1 e 12.",
}

// validateStruct runs the struct tags of v and turns the first failure into
// a validation error with a client-facing message
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("Dados inválidos: %v", err)
	}

	fe := verrs[0]
	if msg, ok := fieldMessages[fe.StructNamespace()]; ok {
		return apperr.Validation("%s", msg)
	}
	return apperr.Validation("Campo '%s' inválido (%s).", fieldPath(fe), fe.Tag())
}

// fieldPath renders the json-ish path of a failed field, e.g. "gabinete.email"
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}

// ValidateStateCode checks an optional state filter. Empty means no filter.
func ValidateStateCode(uf string) error {
	if uf == "" || stateCodePattern.MatchString(uf) {
		return nil
	}
	return apperr.Validation("A sigla do estado deve ter exatamente 2 letras maiúsculas.")
}

// CheckPartyConsistency is the single write-time check that a party code
// carried by a record agrees with the party it references. It runs on every
// path that writes both fields: API create, API update and the importer.
func CheckPartyConsistency(party *model.Party, partyID int, code string) error {
	if party == nil {
		return apperr.Validation("Partido com o id '%d' inexistente.", partyID)
	}
	if !strings.EqualFold(strings.TrimSpace(code), party.Code) {
		return apperr.Validation("Sigla do partido com id '%d' inconsistente com a sigla fornecida.", party.ID)
	}
	return nil
}

// checkYear rejects analysis years outside the accepted calendar range
func checkYear(year int) error {
	if year < 1900 || year > 2100 {
		return apperr.Validation("Ano %d fora do intervalo permitido (1900-2100).", year)
	}
	return nil
}
