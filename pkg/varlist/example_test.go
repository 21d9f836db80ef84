package varlist_test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log"

	"github.com/tmarstad/confknob/pkg/varlist"
)

// ExampleEncode demonstrates serializing a single variable.
func ExampleEncode() {
	entry := &varlist.Entry{
		Name: "TestKnob",
		Data: []byte{0x01, 0x02, 0x03, 0x04},
	}

	encoded, err := varlist.Encode(entry)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("encoded %d bytes\n", len(encoded))

	// Output:
	// encoded 54 bytes
}

// ExampleDecode demonstrates reading a variable back out of its record.
func ExampleDecode() {
	encoded, err := varlist.Encode(&varlist.Entry{
		Name: "TestKnob",
		Data: []byte{0x01, 0x02, 0x03, 0x04},
	})
	if err != nil {
		log.Fatal(err)
	}

	entry, n, err := varlist.Decode(encoded)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Name: %s\n", entry.Name)
	fmt.Printf("Data: %x\n", entry.Data)
	fmt.Printf("Consumed: %d bytes\n", n)

	// Output:
	// Name: TestKnob
	// Data: 01020304
	// Consumed: 54 bytes
}

// ExampleFind demonstrates looking a variable up by name in a packed list.
func ExampleFind() {
	var buf bytes.Buffer
	w := varlist.NewWriter(&buf)
	for _, e := range []*varlist.Entry{
		{Name: "BootMode", Data: []byte{0x01}},
		{Name: "SerialBaud", Data: []byte{0x00, 0xc2, 0x01, 0x00}},
	} {
		if _, err := w.Write(e); err != nil {
			log.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}

	entry, err := varlist.Find(buf.Bytes(), "SerialBaud", varlist.CaseSensitive)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("baud rate: %d\n", binary.LittleEndian.Uint32(entry.Data))

	// Output:
	// baud rate: 115200
}

// ExampleReader demonstrates streaming records from an io.Reader.
func ExampleReader() {
	var buf bytes.Buffer
	w := varlist.NewWriter(&buf)
	for _, name := range []string{"BootMode", "SerialBaud", "AssetTag"} {
		if _, err := w.Write(&varlist.Entry{Name: name, Data: []byte{0x00}}); err != nil {
			log.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}

	r := varlist.NewReader(&buf)
	for {
		entry, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(entry.Name)
	}

	// Output:
	// BootMode
	// SerialBaud
	// AssetTag
}
