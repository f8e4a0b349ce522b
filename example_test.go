package serialkw_test

import (
	"fmt"
	"log"

	"github.com/benchrig/serialkw"
)

func Example() {
	lib, err := serialkw.New(
		serialkw.WithPort("loop://"),
		serialkw.WithEncoding("ascii"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer lib.DeleteAllPorts()

	if err := lib.WriteData("AT\n", "", ""); err != nil {
		log.Fatal(err)
	}
	reply, err := lib.ReadUntil("", 0, "", "")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%q\n", reply)
	// Output: "AT\n"
}

func ExampleLibrary_RunKeyword() {
	lib, err := serialkw.New()
	if err != nil {
		log.Fatal(err)
	}
	defer lib.DeleteAllPorts()

	if _, err := lib.RunKeyword("Add Port", "loop://"); err != nil {
		log.Fatal(err)
	}
	if _, err := lib.RunKeyword("Write Data", "ping", "ascii"); err != nil {
		log.Fatal(err)
	}
	data, err := lib.RunKeyword("Read All Data", "ascii")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(data)
	// Output: ping
}
