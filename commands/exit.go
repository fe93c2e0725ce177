package commands

import "fmt"

// Exit quits the shell
func Exit(s *Shell, args []string) error {
	fmt.Fprintln(s.VIO.Stdout(), "Exiting...")
	s.Quit = true
	return nil
}

func init() {
	addBuiltin(&Builtin{
		Name:  "exit",
		Kind:  KindExit,
		Use:   "exit",
		Short: "Leave the shell.",
		Main:  Exit,
	})
}
