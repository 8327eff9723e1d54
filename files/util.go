package files

// ToFile returns n as a File, or nil when n is a directory or another kind
// of node.
func ToFile(n Node) File {
	f, _ := n.(File)
	return f
}
