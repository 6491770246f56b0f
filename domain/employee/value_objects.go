package employee

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"hrkernel/domain/shared"
	"hrkernel/domain/validation"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)
	stateRegex      = regexp.MustCompile(`^[A-Z]{2}$`)
	postalCodeRegex = regexp.MustCompile(`^\d{8}$`)
	departmentRegex = regexp.MustCompile(`^[A-Z0-9_-]+$`)
	nonDigits       = regexp.MustCompile(`\D`)
)

const maxNameLength = 100

// ============================================================================
// Email
// ============================================================================

// Email 值对象：规范化为小写，不可变
type Email struct {
	value string
}

func NewEmail(raw string) (Email, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if err := validation.ValidateField(value,
		validation.Required("email"),
		validation.MaxLength("email", 254),
		validation.Pattern("email", emailRegex, "invalid email format"),
	); err != nil {
		return Email{}, shared.NewValidationError(entityName, "email", raw, err.Message)
	}
	return Email{value: value}, nil
}

func (e Email) Value() string  { return e.value }
func (e Email) String() string { return e.value }

// Domain returns the part after '@'.
func (e Email) Domain() string {
	_, domain, _ := strings.Cut(e.value, "@")
	return domain
}

func (e Email) TypeName() string                     { return "Email" }
func (e Email) PrimitiveValues() []any               { return []any{e.value} }
func (e Email) Equals(other shared.ValueObject) bool { return shared.Equal(e, other) }
func (e Email) HashCode() int32                      { return shared.HashCode(e) }
func (e Email) Clone() Email                         { return e }

func (e Email) MarshalJSON() ([]byte, error) { return json.Marshal(e.value) }

// ============================================================================
// PersonName
// ============================================================================

// PersonName 姓名值对象
type PersonName struct {
	first string
	last  string
}

func NewPersonName(first, last string) (PersonName, error) {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if err := validation.ValidateField(first, validation.Required("firstName"), validation.MaxLength("firstName", maxNameLength)); err != nil {
		return PersonName{}, shared.NewValidationError(entityName, err.Field, first, err.Message)
	}
	if err := validation.ValidateField(last, validation.Required("lastName"), validation.MaxLength("lastName", maxNameLength)); err != nil {
		return PersonName{}, shared.NewValidationError(entityName, err.Field, last, err.Message)
	}
	return PersonName{first: first, last: last}, nil
}

func (n PersonName) First() string    { return n.first }
func (n PersonName) Last() string     { return n.last }
func (n PersonName) FullName() string { return n.first + " " + n.last }
func (n PersonName) String() string   { return n.FullName() }

// Initials returns the upper-cased first letters, e.g. "AS".
func (n PersonName) Initials() string {
	f, _ := utf8.DecodeRuneInString(n.first)
	l, _ := utf8.DecodeRuneInString(n.last)
	return strings.ToUpper(string([]rune{f, l}))
}

func (n PersonName) TypeName() string                     { return "PersonName" }
func (n PersonName) PrimitiveValues() []any               { return []any{n.first, n.last} }
func (n PersonName) Equals(other shared.ValueObject) bool { return shared.Equal(n, other) }
func (n PersonName) HashCode() int32                      { return shared.HashCode(n) }
func (n PersonName) Clone() PersonName                    { return n }

func (n PersonName) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		First string `json:"first"`
		Last  string `json:"last"`
		Full  string `json:"full"`
	}{n.first, n.last, n.FullName()})
}

// ============================================================================
// CPF
// ============================================================================

// CPF 巴西个人税号值对象
// 11 位数字，标点在构造时去除；全相同数字序列被拒绝；最后两位是 mod-11 校验位。
type CPF struct {
	digits string
}

func NewCPF(raw string) (CPF, error) {
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) != 11 {
		return CPF{}, shared.NewValidationError(entityName, "cpf", raw, "CPF must have 11 digits")
	}
	if strings.Count(digits, digits[:1]) == len(digits) {
		return CPF{}, shared.NewValidationError(entityName, "cpf", raw, "CPF cannot be a repeated digit sequence")
	}
	if cpfCheckDigit(digits[:9]) != digits[9] || cpfCheckDigit(digits[:10]) != digits[10] {
		return CPF{}, shared.NewValidationError(entityName, "cpf", raw, "CPF check digits do not match")
	}
	return CPF{digits: digits}, nil
}

// cpfCheckDigit computes the mod-11 digit that follows prefix.
func cpfCheckDigit(prefix string) byte {
	weight := len(prefix) + 1
	sum := 0
	for i := 0; i < len(prefix); i++ {
		sum += int(prefix[i]-'0') * (weight - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		rest = 0
	}
	return byte('0' + rest)
}

func (c CPF) Value() string { return c.digits }

// FormattedValue renders 000.000.000-00.
func (c CPF) FormattedValue() string {
	if len(c.digits) != 11 {
		return ""
	}
	return fmt.Sprintf("%s.%s.%s-%s", c.digits[0:3], c.digits[3:6], c.digits[6:9], c.digits[9:11])
}

// Masked hides all but the check digits, for logs.
func (c CPF) Masked() string {
	if len(c.digits) != 11 {
		return ""
	}
	return "***.***.***-" + c.digits[9:]
}

func (c CPF) String() string                       { return c.FormattedValue() }
func (c CPF) TypeName() string                     { return "CPF" }
func (c CPF) PrimitiveValues() []any               { return []any{c.digits} }
func (c CPF) Equals(other shared.ValueObject) bool { return shared.Equal(c, other) }
func (c CPF) HashCode() int32                      { return shared.HashCode(c) }
func (c CPF) Clone() CPF                           { return c }
func (c CPF) MarshalJSON() ([]byte, error)         { return json.Marshal(c.FormattedValue()) }

// ============================================================================
// Address
// ============================================================================

// AddressInput 地址原始输入
type AddressInput struct {
	Street     string   `json:"street" validate:"notblank,max=200"`
	Number     string   `json:"number" validate:"max=20"`
	City       string   `json:"city" validate:"notblank,max=100"`
	State      string   `json:"state" validate:"notblank"`
	PostalCode string   `json:"postalCode" validate:"notblank"`
	Tags       []string `json:"tags,omitempty"`
}

// Address 地址值对象；Tags 为有序标签，参与相等性比较
type Address struct {
	street     string
	number     string
	city       string
	state      string
	postalCode string
	tags       []string
}

func NewAddress(in AddressInput) (Address, error) {
	a := Address{
		street:     strings.TrimSpace(in.Street),
		number:     strings.TrimSpace(in.Number),
		city:       strings.TrimSpace(in.City),
		state:      strings.ToUpper(strings.TrimSpace(in.State)),
		postalCode: nonDigits.ReplaceAllString(in.PostalCode, ""),
	}
	checks := []*validation.FieldError{
		validation.ValidateField(a.street, validation.Required("address.street"), validation.MaxLength("address.street", 200)),
		validation.ValidateField(a.city, validation.Required("address.city"), validation.MaxLength("address.city", 100)),
		validation.ValidateField(a.state, validation.Pattern("address.state", stateRegex, "state must be a two-letter code")),
		validation.ValidateField(a.postalCode, validation.Pattern("address.postalCode", postalCodeRegex, "postal code must have 8 digits")),
	}
	for _, fe := range checks {
		if fe != nil {
			return Address{}, shared.NewValidationError(entityName, fe.Field, fe.Value, fe.Message)
		}
	}
	for _, tag := range in.Tags {
		if tag = strings.TrimSpace(tag); tag != "" && !slices.Contains(a.tags, tag) {
			a.tags = append(a.tags, tag)
		}
	}
	return a, nil
}

func (a Address) Street() string     { return a.street }
func (a Address) Number() string     { return a.number }
func (a Address) City() string       { return a.city }
func (a Address) State() string      { return a.state }
func (a Address) PostalCode() string { return a.postalCode }

// Tags returns a copy.
func (a Address) Tags() []string { return slices.Clone(a.tags) }

// WithTag returns a new Address carrying tag. Adding an existing tag returns an equal copy.
func (a Address) WithTag(tag string) Address {
	clone := a.Clone()
	tag = strings.TrimSpace(tag)
	if tag != "" && !slices.Contains(clone.tags, tag) {
		clone.tags = append(clone.tags, tag)
	}
	return clone
}

// FormattedPostalCode renders 00000-000.
func (a Address) FormattedPostalCode() string {
	if len(a.postalCode) != 8 {
		return a.postalCode
	}
	return a.postalCode[:5] + "-" + a.postalCode[5:]
}

func (a Address) String() string {
	line := a.street
	if a.number != "" {
		line += ", " + a.number
	}
	return fmt.Sprintf("%s - %s/%s %s", line, a.city, a.state, a.FormattedPostalCode())
}

func (a Address) TypeName() string { return "Address" }
func (a Address) PrimitiveValues() []any {
	return []any{a.street, a.number, a.city, a.state, a.postalCode, a.tags}
}
func (a Address) Equals(other shared.ValueObject) bool { return shared.Equal(a, other) }
func (a Address) HashCode() int32                      { return shared.HashCode(a) }

// Clone returns an Address whose tags share nothing with a.
func (a Address) Clone() Address {
	clone := a
	clone.tags = slices.Clone(a.tags)
	return clone
}

// Input converts back to raw form.
func (a Address) Input() AddressInput {
	return AddressInput{
		Street:     a.street,
		Number:     a.number,
		City:       a.city,
		State:      a.state,
		PostalCode: a.postalCode,
		Tags:       slices.Clone(a.tags),
	}
}

func (a Address) MarshalJSON() ([]byte, error) {
	in := a.Input()
	in.PostalCode = a.FormattedPostalCode()
	return json.Marshal(in)
}

// ============================================================================
// Department
// ============================================================================

// NormalizeDepartment trims and upper-cases a department code and validates it.
func NormalizeDepartment(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if err := validation.ValidateField(code,
		validation.Required("department"),
		validation.MaxLength("department", 60),
		validation.Pattern("department", departmentRegex, "department code may contain only letters, digits, '-' and '_'"),
	); err != nil {
		return "", shared.NewValidationError(entityName, "department", raw, err.Message)
	}
	return code, nil
}

var (
	_ shared.ValueObject = Email{}
	_ shared.ValueObject = PersonName{}
	_ shared.ValueObject = CPF{}
	_ shared.ValueObject = Address{}
)
