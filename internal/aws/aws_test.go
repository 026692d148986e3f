package awsclient

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSecrets struct {
	mock.Mock
}

func (m *MockSecrets) GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	args := m.Called(aws.ToString(in.SecretId))
	out, _ := args.Get(0).(*secretsmanager.GetSecretValueOutput)
	return out, args.Error(1)
}

func TestSecretStringWholeValue(t *testing.T) {
	m := new(MockSecrets)
	m.On("GetSecretValue", "db").Return(&secretsmanager.GetSecretValueOutput{
		SecretString: aws.String("postgres://u:p@host/db"),
	}, nil)

	v, err := SecretString(context.Background(), m, "db", "")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@host/db", v)
	m.AssertExpectations(t)
}

func TestSecretStringField(t *testing.T) {
	m := new(MockSecrets)
	m.On("GetSecretValue", "db").Return(&secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"dsn":"postgres://x","user":"u"}`),
	}, nil)

	v, err := SecretString(context.Background(), m, "db", "dsn")
	require.NoError(t, err)
	assert.Equal(t, "postgres://x", v)

	_, err = SecretString(context.Background(), m, "db", "missing")
	assert.ErrorContains(t, err, "no field missing")
}

func TestSecretStringErrors(t *testing.T) {
	m := new(MockSecrets)
	m.On("GetSecretValue", "gone").Return(nil, errors.New("ResourceNotFoundException"))
	m.On("GetSecretValue", "binary").Return(&secretsmanager.GetSecretValueOutput{SecretBinary: []byte{1}}, nil)

	_, err := SecretString(context.Background(), m, "gone", "")
	assert.ErrorContains(t, err, "ResourceNotFoundException")

	_, err = SecretString(context.Background(), m, "binary", "")
	assert.Error(t, err)
}
