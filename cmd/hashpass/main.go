// Command hashpass prints the SHA-256 hash of a password for use as
// APP_PASSWORD_HASH.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"timetrack/internal/auth"
)

func main() {
	var password string
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			fmt.Fprintln(os.Stderr, "read password:", err)
			os.Exit(1)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		fmt.Fprintln(os.Stderr, "empty password")
		os.Exit(1)
	}
	fmt.Println(auth.HashPassword(password))
}
