// Package obfuscate runs the whole profile transform.
//
// Every document of the input stream is parsed, has its weights moved behind
// trigger chains, has its strings marked for escaping, and is written back.
// The output is parsed again and compared with the transformed trees, so a
// successful Run never returns text that decodes differently from what was
// built. With Config.Verify set, each document is also rolled before and
// after the transform to check that resolved outcomes keep their
// frequencies.
package obfuscate
