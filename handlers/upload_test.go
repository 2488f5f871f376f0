package handlers

import "testing"

func TestAllowedImage(t *testing.T) {
	for _, name := range []string{"photo.jpg", "photo.JPG", "photo.jpeg", "avatar.png", "a.b.PNG"} {
		if !allowedImage(name) {
			t.Errorf("expected %q to be allowed", name)
		}
	}
	for _, name := range []string{"doc.pdf", "script.sh", "photo.gif", "noext", "photo.png.exe"} {
		if allowedImage(name) {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}
