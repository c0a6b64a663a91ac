package controllers

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/grantgg11/gamegrinding/internal/config"
	"github.com/grantgg11/gamegrinding/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig() *config.Config {
	return &config.Config{
		DigestSecret:  "test-digest-secret",
		EncryptionKey: bytes.Repeat([]byte{0x24}, 32),
	}
}

func newTestUserController(t *testing.T) *UserController {
	t.Helper()

	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	ctrl, err := NewUserController(db, testConfig(), testLogger())
	require.NoError(t, err)
	return ctrl
}

var testAnswers = []string{"Rex", "Springfield", "Blue"}

func TestRegisterAndLogin(t *testing.T) {
	ctrl := newTestUserController(t)

	user, err := ctrl.Register("player@example.com", "Sup3rSecret", testAnswers)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Len(t, user.AnswerHashes, 3)
	assert.NotContains(t, string(user.EmailEncrypted), "player@example.com")

	email, err := ctrl.Email(user)
	require.NoError(t, err)
	assert.Equal(t, "player@example.com", email)

	loggedIn, err := ctrl.Login("player@example.com", "Sup3rSecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, err = ctrl.Login("player@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = ctrl.Login("nobody@example.com", "Sup3rSecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	ctrl := newTestUserController(t)

	_, err := ctrl.Register("not-an-email", "Sup3rSecret", testAnswers)
	assert.Error(t, err)

	_, err = ctrl.Register("player@example.com", "weak", testAnswers)
	assert.Error(t, err)

	_, err = ctrl.Register("player@example.com", "Sup3rSecret", []string{"only", "two"})
	assert.Error(t, err)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctrl := newTestUserController(t)

	_, err := ctrl.Register("player@example.com", "Sup3rSecret", testAnswers)
	require.NoError(t, err)

	_, err = ctrl.Register("player@example.com", "An0therPass", testAnswers)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestResetPassword(t *testing.T) {
	ctrl := newTestUserController(t)

	_, err := ctrl.Register("player@example.com", "Sup3rSecret", testAnswers)
	require.NoError(t, err)

	// Answers are normalized, so casing and whitespace differences still match
	err = ctrl.ResetPassword("player@example.com", []string{" rex ", "SPRINGFIELD", "blue"}, "N3wPassword")
	require.NoError(t, err)

	_, err = ctrl.Login("player@example.com", "N3wPassword")
	assert.NoError(t, err)

	_, err = ctrl.Login("player@example.com", "Sup3rSecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPasswordRejectsWrongAnswers(t *testing.T) {
	ctrl := newTestUserController(t)

	_, err := ctrl.Register("player@example.com", "Sup3rSecret", testAnswers)
	require.NoError(t, err)

	err = ctrl.ResetPassword("player@example.com", []string{"Rex", "Shelbyville", "Blue"}, "N3wPassword")
	assert.ErrorIs(t, err, ErrAnswerMismatch)

	err = ctrl.ResetPassword("player@example.com", []string{"Rex"}, "N3wPassword")
	assert.ErrorIs(t, err, ErrAnswerMismatch)

	// Old password must still work after a failed reset
	_, err = ctrl.Login("player@example.com", "Sup3rSecret")
	assert.NoError(t, err)
}

func TestUpdateEmail(t *testing.T) {
	ctrl := newTestUserController(t)

	user, err := ctrl.Register("old@example.com", "Sup3rSecret", testAnswers)
	require.NoError(t, err)
	other, err := ctrl.Register("taken@example.com", "Sup3rSecret", testAnswers)
	require.NoError(t, err)

	require.NoError(t, ctrl.UpdateEmail(user.ID, "new@example.com"))

	_, err = ctrl.Login("new@example.com", "Sup3rSecret")
	assert.NoError(t, err)
	_, err = ctrl.Login("old@example.com", "Sup3rSecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.ErrorIs(t, ctrl.UpdateEmail(user.ID, "taken@example.com"), ErrEmailTaken)

	// Re-saving your own address is not a conflict
	assert.NoError(t, ctrl.UpdateEmail(other.ID, "taken@example.com"))
}

func TestUpdatePassword(t *testing.T) {
	ctrl := newTestUserController(t)

	user, err := ctrl.Register("player@example.com", "Sup3rSecret", testAnswers)
	require.NoError(t, err)

	assert.ErrorIs(t, ctrl.UpdatePassword(user.ID, "wrong", "N3wPassword"), ErrInvalidCredentials)
	assert.Error(t, ctrl.UpdatePassword(user.ID, "Sup3rSecret", "weak"))

	require.NoError(t, ctrl.UpdatePassword(user.ID, "Sup3rSecret", "N3wPassword"))
	_, err = ctrl.Login("player@example.com", "N3wPassword")
	assert.NoError(t, err)
}
