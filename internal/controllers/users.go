package controllers

import (
	"errors"
	"fmt"
	"net/mail"

	"github.com/grantgg11/gamegrinding/internal/config"
	"github.com/grantgg11/gamegrinding/internal/models"
	"github.com/grantgg11/gamegrinding/internal/security"
	"github.com/sirupsen/logrus"
	"github.com/timshannon/bolthold"
)

const securityAnswerCount = 3

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrAnswerMismatch     = errors.New("security answers do not match")
)

// UserController handles account registration, login and recovery
type UserController struct {
	db           *models.Database
	cipher       *security.Cipher
	digestSecret string
	logger       *logrus.Logger
}

// NewUserController creates a new user controller
func NewUserController(db *models.Database, cfg *config.Config, logger *logrus.Logger) (*UserController, error) {
	cipher, err := security.NewCipher(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email cipher: %w", err)
	}

	return &UserController{
		db:           db,
		cipher:       cipher,
		digestSecret: cfg.DigestSecret,
		logger:       logger,
	}, nil
}

// Register creates a new account. The email is stored encrypted with a
// deterministic digest kept alongside for lookup; the password is bcrypt
// hashed and the three recovery answers are HMAC hashed.
func (c *UserController) Register(email, password string, answers []string) (*models.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email address: %w", err)
	}
	if err := security.ValidatePasswordStrength(password); err != nil {
		return nil, err
	}
	if len(answers) != securityAnswerCount {
		return nil, fmt.Errorf("exactly %d security answers are required", securityAnswerCount)
	}

	digest := security.EmailDigest(c.digestSecret, email)
	if _, err := c.db.GetUserByEmailDigest(digest); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, bolthold.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	encrypted, err := c.cipher.Encrypt(email)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt email: %w", err)
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	answerHashes := make([]string, 0, securityAnswerCount)
	for _, answer := range answers {
		answerHashes = append(answerHashes, security.HashAnswer(c.digestSecret, answer))
	}

	user := &models.User{
		EmailDigest:    digest,
		EmailEncrypted: encrypted,
		PasswordHash:   passwordHash,
		AnswerHashes:   answerHashes,
	}
	if err := c.db.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	c.logger.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login authenticates by email and password
func (c *UserController) Login(email, password string) (*models.User, error) {
	digest := security.EmailDigest(c.digestSecret, email)

	user, err := c.db.GetUserByEmailDigest(digest)
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if !security.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	c.logger.WithField("user_id", user.ID).Info("User logged in")
	return user, nil
}

// Email decrypts the stored email address for display
func (c *UserController) Email(user *models.User) (string, error) {
	return c.cipher.Decrypt(user.EmailEncrypted)
}

// ResetPassword verifies all recovery answers and sets a new password
func (c *UserController) ResetPassword(email string, answers []string, newPassword string) error {
	digest := security.EmailDigest(c.digestSecret, email)

	user, err := c.db.GetUserByEmailDigest(digest)
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	if len(answers) != len(user.AnswerHashes) {
		return ErrAnswerMismatch
	}
	for i, answer := range answers {
		if !security.VerifyAnswer(c.digestSecret, answer, user.AnswerHashes[i]) {
			return ErrAnswerMismatch
		}
	}

	if err := security.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}
	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = passwordHash
	if err := c.db.UpdateUser(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	c.logger.WithField("user_id", user.ID).Info("Password reset")
	return nil
}

// UpdateEmail changes the account email, re-encrypting and re-digesting it
func (c *UserController) UpdateEmail(userID uint64, newEmail string) error {
	if _, err := mail.ParseAddress(newEmail); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	user, err := c.db.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	digest := security.EmailDigest(c.digestSecret, newEmail)
	if existing, err := c.db.GetUserByEmailDigest(digest); err == nil && existing.ID != userID {
		return ErrEmailTaken
	} else if err != nil && !errors.Is(err, bolthold.ErrNotFound) {
		return fmt.Errorf("failed to check existing account: %w", err)
	}

	encrypted, err := c.cipher.Encrypt(newEmail)
	if err != nil {
		return fmt.Errorf("failed to encrypt email: %w", err)
	}

	user.EmailDigest = digest
	user.EmailEncrypted = encrypted
	if err := c.db.UpdateUser(user); err != nil {
		return fmt.Errorf("failed to update email: %w", err)
	}

	c.logger.WithField("user_id", user.ID).Info("Email updated")
	return nil
}

// UpdatePassword changes the password after verifying the current one
func (c *UserController) UpdatePassword(userID uint64, currentPassword, newPassword string) error {
	user, err := c.db.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if !security.CheckPassword(user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}
	if err := security.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = passwordHash
	if err := c.db.UpdateUser(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	c.logger.WithField("user_id", user.ID).Info("Password updated")
	return nil
}
