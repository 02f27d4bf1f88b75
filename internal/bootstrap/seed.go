package bootstrap

import "titanchat/core/internal/models"

const (
	AdminEmail    = "admin@example.com"
	adminName     = "Application Administrator"
	adminNickname = "Admin"
	adminPassword = "admin"
	adminColor    = "#D32F2F"
	adminBio      = "System Administrator for TitanChat."

	// legacyAvatarHost marks placeholder avatars written by old seed data.
	legacyAvatarHost = "picsum.photos"
)

type seedProfile struct {
	name     string
	nickname string
	email    string
	password string
	status   models.UserStatus
	bio      string
}

var seedProfiles = []seedProfile{
	{
		name: "Alice Wonderland", nickname: "WonderAlice", email: "alice@example.com", password: "password123",
		status: models.UserStatusOnline, bio: "Curiouser and curiouser! Exploring the digital rabbit hole.",
	},
	{
		name: "Bob The Builder", nickname: "BobBuilds", email: "bob@example.com", password: "password456",
		status: models.UserStatusOffline, bio: "Can we fix it? Yes, we can! Building things, one line of code at a time.",
	},
	{
		name: "Charlie Chaplin", nickname: "TheTramp", email: "charlie@example.com", password: "password789",
		status: models.UserStatusAway, bio: "A day without laughter is a day wasted.",
	},
	{
		name: "Diana Prince", nickname: "WonderWoman", email: "diana@example.com", password: "securepass",
		status: models.UserStatusOnline, bio: "Fighting for those who cannot fight for themselves.",
	},
	{
		name: "Mattress Store", nickname: "ComfySleeps", email: "store@example.com", password: "storepass",
		status: models.UserStatusOnline, bio: "Your best night's sleep starts here. Quality mattresses and bedding.",
	},
}
