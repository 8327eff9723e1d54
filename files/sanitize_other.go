//go:build !windows

package files

func validatePlatformComponent(string) error {
	return nil
}
