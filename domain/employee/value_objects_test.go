package employee

import (
	"encoding/json"
	"testing"

	"hrkernel/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCPF(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		digits  string
		wantErr string
	}{
		{"formatted", "529.982.247-25", "52998224725", ""},
		{"bare digits", "12345678909", "12345678909", ""},
		{"zero check digits", "987.654.321-00", "98765432100", ""},
		{"repeated digits", "111.111.111-11", "", "repeated"},
		{"wrong check digit", "529.982.247-26", "", "check digits"},
		{"too short", "5299822472", "", "11 digits"},
		{"empty", "", "", "11 digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpf, err := NewCPF(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, shared.ErrValidation)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.digits, cpf.Value())
		})
	}
}

func TestCPF_Rendering(t *testing.T) {
	cpf, err := NewCPF("52998224725")
	require.NoError(t, err)

	assert.Equal(t, "529.982.247-25", cpf.FormattedValue())
	assert.Equal(t, "529.982.247-25", cpf.String())
	assert.Equal(t, "***.***.***-25", cpf.Masked())

	data, err := json.Marshal(cpf)
	require.NoError(t, err)
	assert.JSONEq(t, `"529.982.247-25"`, string(data))

	same, _ := NewCPF("529.982.247-25")
	assert.True(t, cpf.Equals(same))
	assert.Equal(t, cpf.HashCode(), same.HashCode())
	assert.Empty(t, CPF{}.FormattedValue())
}

func TestNewEmail(t *testing.T) {
	email, err := NewEmail("  Ana.Souza@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "ana.souza@example.com", email.Value())
	assert.Equal(t, "example.com", email.Domain())

	other, _ := NewEmail("ana.souza@example.com")
	assert.True(t, email.Equals(other))

	for _, raw := range []string{"", "   ", "no-at-sign", "a@b", "a b@example.com"} {
		_, err := NewEmail(raw)
		assert.ErrorIs(t, err, shared.ErrValidation, raw)
	}
}

func TestNewPersonName(t *testing.T) {
	name, err := NewPersonName(" ana ", "Souza")
	require.NoError(t, err)
	assert.Equal(t, "ana Souza", name.FullName())
	assert.Equal(t, "AS", name.Initials())

	data, err := json.Marshal(name)
	require.NoError(t, err)
	assert.JSONEq(t, `{"first":"ana","last":"Souza","full":"ana Souza"}`, string(data))

	_, err = NewPersonName("", "Souza")
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "firstName", de.Field)

	long := make([]rune, maxNameLength+1)
	for i := range long {
		long[i] = 'é'
	}
	_, err = NewPersonName("Ana", string(long))
	de, ok = shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "lastName", de.Field)

	_, err = NewPersonName("Ana", string(long[:maxNameLength]))
	assert.NoError(t, err, "length counts characters, not bytes")
}

func validAddressInput() AddressInput {
	return AddressInput{
		Street:     "Av. Paulista",
		Number:     "1000",
		City:       "São Paulo",
		State:      "sp",
		PostalCode: "01310-100",
		Tags:       []string{"home", "billing", "home", " "},
	}
}

func TestNewAddress(t *testing.T) {
	a, err := NewAddress(validAddressInput())
	require.NoError(t, err)

	assert.Equal(t, "SP", a.State())
	assert.Equal(t, "01310100", a.PostalCode())
	assert.Equal(t, "01310-100", a.FormattedPostalCode())
	assert.Equal(t, []string{"home", "billing"}, a.Tags())
	assert.Equal(t, "Av. Paulista, 1000 - São Paulo/SP 01310-100", a.String())

	tests := []struct {
		field  string
		mutate func(*AddressInput)
	}{
		{"address.street", func(in *AddressInput) { in.Street = " " }},
		{"address.city", func(in *AddressInput) { in.City = "" }},
		{"address.state", func(in *AddressInput) { in.State = "SPX" }},
		{"address.postalCode", func(in *AddressInput) { in.PostalCode = "0131" }},
	}
	for _, tt := range tests {
		in := validAddressInput()
		tt.mutate(&in)
		_, err := NewAddress(in)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok, tt.field)
		assert.Equal(t, tt.field, de.Field)
	}
}

func TestAddress_EqualityAndIndependence(t *testing.T) {
	a, _ := NewAddress(validAddressInput())
	b, _ := NewAddress(validAddressInput())
	assert.True(t, a.Equals(b))
	assert.Equal(t, a.HashCode(), b.HashCode())

	reordered := validAddressInput()
	reordered.Tags = []string{"billing", "home"}
	c, _ := NewAddress(reordered)
	assert.False(t, a.Equals(c), "tag order is significant")

	tags := a.Tags()
	tags[0] = "tampered"
	assert.Equal(t, "home", a.Tags()[0])

	clone := a.Clone()
	assert.True(t, clone.Equals(a))
	withTag := clone.WithTag("work")
	assert.Equal(t, []string{"home", "billing", "work"}, withTag.Tags())
	assert.Equal(t, []string{"home", "billing"}, clone.Tags())
	assert.True(t, a.WithTag("home").Equals(a))

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"street":"Av. Paulista","number":"1000","city":"São Paulo","state":"SP","postalCode":"01310-100","tags":["home","billing"]}`, string(data))
}

func TestNormalizeDepartment(t *testing.T) {
	code, err := NormalizeDepartment(" eng-platform ")
	require.NoError(t, err)
	assert.Equal(t, "ENG-PLATFORM", code)

	for _, raw := range []string{"", "eng platform", "r&d"} {
		_, err := NormalizeDepartment(raw)
		assert.ErrorIs(t, err, shared.ErrValidation, raw)
	}
}
