package models

import "math/rand"

// AvatarPalette holds the background colours handed out to users without one.
var AvatarPalette = []string{
	"#FFC107", "#4CAF50", "#2196F3", "#9C27B0", "#F44336",
	"#00BCD4", "#E91E63", "#FF9800", "#8BC34A", "#673AB7",
	"#795548", "#607D8B", "#009688", "#FF5722", "#3F51B5",
}

func RandomAvatarColor() string {
	return AvatarPalette[rand.Intn(len(AvatarPalette))]
}
