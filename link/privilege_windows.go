package link

// CheckPrivileges always succeeds on windows. Npcap decides access when the
// adapter is opened.
func CheckPrivileges() error {
	return nil
}
