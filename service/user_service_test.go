// service/user_service_test.go
package service

import (
	"bank-cards-api/model"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserService_UpdateUserRole(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("UpdateUserRole", ownerID, "admin").Return(nil).Once()

		userService := NewUserService(mockRepo)
		err := userService.UpdateUserRole(ownerID, model.RoleAdmin)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		expectedError := errors.New("database error")
		mockRepo.On("UpdateUserRole", ownerID, "user").Return(expectedError).Once()

		userService := NewUserService(mockRepo)
		err := userService.UpdateUserRole(ownerID, model.RoleUser)

		assert.Error(t, err)
		assert.Equal(t, expectedError, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid role", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		userService := NewUserService(mockRepo)

		err := userService.UpdateUserRole(ownerID, "invalid_role")

		assert.Error(t, err)
		assert.Equal(t, "invalid role specified", err.Error())
		mockRepo.AssertNotCalled(t, "UpdateUserRole")
	})
}
