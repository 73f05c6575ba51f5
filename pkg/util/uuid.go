package util

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// namespace scopes fingerprints so they never collide with other MD5 UUIDs
var namespace = uuid.NewMD5(uuid.NameSpaceURL, []byte("https://github.com/jpfielding/xfbimage.go"))

// Fingerprint hashes packed units, in framebuffer byte order, into a stable UUID
func Fingerprint(pix []uint32) string {
	raw := make([]byte, len(pix)*4)
	for i, u := range pix {
		binary.BigEndian.PutUint32(raw[i*4:], u)
	}
	return uuid.NewMD5(namespace, raw).String()
}
