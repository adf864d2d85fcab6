package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/brightstack/learnhubbackend/database"
	"github.com/brightstack/learnhubbackend/dto"
	"github.com/brightstack/learnhubbackend/mailer"
	"github.com/brightstack/learnhubbackend/models"
	"github.com/brightstack/learnhubbackend/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Sent for every forget-password request so responses cannot be used to
// probe which emails have accounts.
const resetRequestedMessage = "If an account exists for that email, a reset link has been sent"

func Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "failed to hash password")
			return
		}

		now := time.Now().UTC()
		user := models.User{
			ID:           bson.NewObjectID(),
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleUser,
			FirstName:    strings.TrimSpace(body.FirstName),
			LastName:     strings.TrimSpace(body.LastName),
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		usersCol := database.OpenCollection("users")
		if _, err := usersCol.InsertOne(ctx, user); err != nil {
			if utils.IsDuplicateKey(err) {
				utils.FailField(c, http.StatusBadRequest, "email already registered", "email")
				return
			}
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		utils.OK(c, http.StatusCreated, user)
	}
}

func Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))

		var user models.User
		usersCol := database.OpenCollection("users")
		if err := usersCol.FindOne(c, bson.M{"email": email}).Decode(&user); err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid credentials")
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid credentials")
			return
		}

		if !user.IsActive {
			utils.Fail(c, http.StatusForbidden, "account disabled")
			return
		}

		accessToken, _ := utils.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role), utils.AccessTTL())
		refreshToken, _ := utils.GenerateRefreshToken(user.ID.Hex())

		refreshTokensCol := database.OpenCollection("refresh_tokens")
		result, err := refreshTokensCol.InsertOne(c, newRefreshTokenRecord(user.ID, refreshToken, time.Now().UTC()))
		if err != nil || result.InsertedID == nil {
			log.Print("Connection failed ", err)
			utils.Fail(c, http.StatusInternalServerError, "connection failed")
			return
		}
		utils.SetRefreshCookie(c, refreshToken)
		utils.OK(c, http.StatusOK, gin.H{
			"accessToken": accessToken,
			"user":        user,
		})
	}
}

func Refresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")
		refreshCol := database.OpenCollection("refresh_tokens")

		raw, err := c.Cookie("refreshToken")
		if err != nil || raw == "" {
			utils.Fail(c, http.StatusUnauthorized, "missing refresh token")
			return
		}
		var rt models.RefreshToken
		err = refreshCol.FindOne(ctx, bson.M{
			"tokenHash": utils.HashToken(raw),
			"revokedAt": bson.M{"$exists": false},
			"expiresAt": bson.M{"$gt": time.Now().UTC()},
		}).Decode(&rt)

		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid refresh token")
			return
		}

		var user models.User
		if err := usersCol.FindOne(ctx, bson.M{"_id": rt.UserID}).Decode(&user); err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid user")
			return
		}
		if !user.IsActive {
			utils.Fail(c, http.StatusForbidden, "account disabled")
			return
		}

		// Rotate refresh token
		newRaw, err := utils.GenerateRefreshToken(user.ID.Hex())
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "failed to rotate refresh token")
			return
		}

		now := time.Now().UTC()

		_, err = refreshCol.UpdateByID(ctx, rt.ID, bson.M{
			"$set": bson.M{
				"revokedAt":  now,
				"replacedBy": utils.HashToken(newRaw),
			},
		})
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "failed to revoke refresh token")
			return
		}

		// Insert new token
		_, err = refreshCol.InsertOne(ctx, newRefreshTokenRecord(user.ID, newRaw, now))
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "failed to store refresh token")
			return
		}

		accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role), utils.AccessTTL())
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "failed to generate access token")
			return
		}

		// Hand the rotated token back or the next refresh presents the
		// just-revoked one.
		utils.SetRefreshCookie(c, newRaw)

		utils.OK(c, http.StatusOK, gin.H{"accessToken": accessToken})
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		refreshCol := database.OpenCollection("refresh_tokens")

		raw, _ := c.Cookie("refreshToken")
		utils.ClearRefreshCookie(c)

		// best effort revoke
		if raw != "" {
			now := time.Now().UTC()
			_, _ = refreshCol.UpdateOne(ctx, bson.M{
				"tokenHash": utils.HashToken(raw),
				"revokedAt": bson.M{"$exists": false},
			}, bson.M{
				"$set": bson.M{"revokedAt": now},
			})
		}

		utils.OKMessage(c, http.StatusOK, "logged out")
	}
}

func GetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, ok := CurrentUserID(c)
		if !ok {
			utils.Fail(c, http.StatusUnauthorized, "missing auth context")
			return
		}

		var user models.User
		usersCol := database.OpenCollection("users")
		if err := usersCol.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid user")
			return
		}

		utils.OK(c, http.StatusOK, user)
	}
}

// POST /auth/forget-password
func ForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.ForgotPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))

		var user models.User
		usersCol := database.OpenCollection("users")
		if err := usersCol.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			// Same reply as the happy path; see resetRequestedMessage.
			utils.OKMessage(c, http.StatusOK, resetRequestedMessage)
			return
		}

		raw, hash := utils.GenerateResetToken()
		expiry := time.Now().UTC().Add(utils.ResetTokenTTL())

		_, err := usersCol.UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{
				"resetTokenHash":   hash,
				"resetTokenExpiry": expiry,
				"updatedAt":        time.Now().UTC(),
			},
		})
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "failed to store reset token")
			return
		}

		if err := mailer.SendPasswordResetEmail(user.Email, raw); err != nil {
			log.Print("reset mail failed: ", err.Error())
		}

		utils.OKMessage(c, http.StatusOK, resetRequestedMessage)
	}
}

// POST /auth/reset-password
func ResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.ResetPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		hash := utils.HashToken(body.Token)

		var user models.User
		usersCol := database.OpenCollection("users")
		err := usersCol.FindOne(ctx, bson.M{
			"resetTokenHash":   hash,
			"resetTokenExpiry": bson.M{"$gt": time.Now().UTC()},
		}).Decode(&user)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid or expired reset token")
			return
		}

		newHash, err := utils.HashPassword(body.NewPassword)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "failed to hash password")
			return
		}

		// Clearing the token fields makes it single-use.
		_, err = usersCol.UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{
				"passwordHash": newHash,
				"updatedAt":    time.Now().UTC(),
			},
			"$unset": bson.M{
				"resetTokenHash":   "",
				"resetTokenExpiry": "",
			},
		})
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		_ = RevokeAllRefreshTokens(c, user.ID)

		utils.OKMessage(c, http.StatusOK, "password has been reset")
	}
}

// POST /auth/me/password
func ChangeMyPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ChangeMyPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		userID, ok := CurrentUserID(c)
		if !ok {
			utils.Fail(c, http.StatusUnauthorized, "missing auth context")
			return
		}

		usersCol := database.OpenCollection("users")

		var user models.User
		if err := usersCol.FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&user); err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid user")
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.CurrentPassword); err != nil {
			utils.Fail(c, http.StatusUnauthorized, "current password is incorrect")
			return
		}

		newHash, err := utils.HashPassword(body.NewPassword)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "failed to hash password")
			return
		}

		now := time.Now().UTC()
		_, err = usersCol.UpdateByID(c.Request.Context(), userID, bson.M{
			"$set": bson.M{
				"passwordHash": newHash,
				"updatedAt":    now,
			},
		})
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		_ = RevokeAllRefreshTokens(c, userID)
		utils.ClearRefreshCookie(c)

		utils.OKMessage(c, http.StatusOK, "password changed")
	}
}

// newRefreshTokenRecord hashes the raw token before it is persisted; only
// the client's cookie ever holds the raw value.
func newRefreshTokenRecord(userID bson.ObjectID, raw string, now time.Time) models.RefreshToken {
	return models.RefreshToken{
		UserID:    userID,
		TokenHash: utils.HashToken(raw),
		ExpiresAt: now.Add(utils.RefreshTTL()),
		CreatedAt: now,
	}
}

func RevokeAllRefreshTokens(ctx *gin.Context, userID bson.ObjectID) error {
	refreshCol := database.OpenCollection("refresh_tokens")
	now := time.Now().UTC()
	_, err := refreshCol.UpdateMany(ctx.Request.Context(), bson.M{
		"userId":    userID,
		"revokedAt": bson.M{"$exists": false},
	}, bson.M{
		"$set": bson.M{"revokedAt": now},
	})
	return err
}

// CurrentUserID pulls the authenticated user id set by the auth middleware.
func CurrentUserID(c *gin.Context) (bson.ObjectID, bool) {
	userIDStr, ok := c.Get("userID")
	if !ok {
		return bson.ObjectID{}, false
	}
	userID, err := bson.ObjectIDFromHex(userIDStr.(string))
	if err != nil {
		return bson.ObjectID{}, false
	}
	return userID, true
}

func isStaff(c *gin.Context) bool {
	roleVal, ok := c.Get("role")
	if !ok {
		return false
	}
	role := roleVal.(string)
	return role == string(models.RoleAdmin) || role == string(models.RoleInstructor)
}
