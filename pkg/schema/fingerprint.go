package schema

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"hash"
	"sort"
	"strings"
	"time"
)

// hashConstructor builds the cryptographic digest used for fingerprints. It
// is a package variable so tests can simulate an environment without the
// primitive and exercise the rolling-hash fallback.
var hashConstructor func() hash.Hash = sha256.New

// Fingerprint computes a deterministic hash over the sorted, normalized
// (type, schema, name, definition) tuples of a snapshot's objects, used to
// detect schema drift between runs without re-diffing.
//
// The result is prefixed with its scheme so fingerprints from different
// schemes never compare equal:
//
//	h1: base64 sha256 digest (normal path)
//	r1: rolling polynomial sum, used when the cryptographic primitive is
//	    unavailable
//	t1: capture-timestamp value for an empty object set; non-deterministic
//	    and only meaningful as "something, but nothing to hash"
//
// Example usage:
//
//	fp := schema.Fingerprint(snapshot.Objects)
//	if fp != storedFingerprint {
//	    // schema drifted since the stored snapshot
//	}
func Fingerprint(objects []DatabaseObject) string {
	if len(objects) == 0 {
		return fmt.Sprintf("t1:%d", time.Now().Unix())
	}

	material := fingerprintMaterial(objects)
	if sum, ok := cryptoSum(material); ok {
		return "h1:" + sum
	}
	return fmt.Sprintf("r1:%016x", rollingSum(material))
}

// Fingerprint returns the snapshot's object fingerprint.
func (s *Snapshot) Fingerprint() string {
	return Fingerprint(s.Objects)
}

// fingerprintMaterial renders objects as sorted "type|schema|name|definition"
// lines with definition whitespace runs collapsed, so formatting-only
// differences in captured definitions don't change the fingerprint.
func fingerprintMaterial(objects []DatabaseObject) string {
	lines := make([]string, 0, len(objects))
	for i := range objects {
		o := &objects[i]
		definition := strings.Join(strings.Fields(o.Definition), " ")
		lines = append(lines, fmt.Sprintf("%s|%s|%s|%s", o.Type, o.Schema, o.Name, definition))
	}
	sort.Strings(lines)

	return strings.Join(lines, "\n")
}

func cryptoSum(material string) (sum string, ok bool) {
	defer func() {
		if recover() != nil {
			sum, ok = "", false
		}
	}()

	if hashConstructor == nil {
		return "", false
	}
	h := hashConstructor()
	if h == nil {
		return "", false
	}
	h.Write([]byte(material))

	return base64.StdEncoding.EncodeToString(h.Sum(nil)), true
}

func rollingSum(material string) uint64 {
	var sum uint64
	for i := 0; i < len(material); i++ {
		sum = sum*31 + uint64(material[i])
	}
	return sum
}
