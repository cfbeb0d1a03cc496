// Package password turns plaintext passwords into storable salted argon2id
// hashes and verifies candidates against them. Hashes are self-describing
// PHC strings, so every stored value embeds the algorithm, version, cost
// parameters and salt it was created with.
package password
