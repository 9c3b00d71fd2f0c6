package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// AdminRole enum
type AdminRole string

const (
	RoleAdmin      AdminRole = "admin"
	RoleSuperadmin AdminRole = "superadmin"
	RoleModerator  AdminRole = "moderator"
)

// Permissions are the capability flags granted to an admin account.
type Permissions struct {
	CanUpdateStatus  bool `bson:"canUpdateStatus" json:"canUpdateStatus"`
	CanDeleteIssues  bool `bson:"canDeleteIssues" json:"canDeleteIssues"`
	CanManageUsers   bool `bson:"canManageUsers" json:"canManageUsers"`
	CanViewAnalytics bool `bson:"canViewAnalytics" json:"canViewAnalytics"`
}

// DefaultPermissions matches what a newly provisioned admin receives.
func DefaultPermissions() Permissions {
	return Permissions{
		CanUpdateStatus:  true,
		CanDeleteIssues:  false,
		CanManageUsers:   false,
		CanViewAnalytics: true,
	}
}

// Admin is an administrative account. Region is the colony an admin manages;
// superadmins are not confined to it.
type Admin struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password,omitempty" json:"-"`
	Role        AdminRole          `bson:"role" json:"role"`
	Region      string             `bson:"region" json:"region"`
	Permissions Permissions        `bson:"permissions" json:"permissions"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	LastLogin   time.Time          `bson:"lastLogin" json:"lastLogin"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

func (a *Admin) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.Password = string(hashed)
	return nil
}

func (a *Admin) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(candidate))
	return err == nil
}

// EnsureAdminIndexes creates the unique email index on the admins collection.
func EnsureAdminIndexes(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
