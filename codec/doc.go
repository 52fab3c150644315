// Package codec converts Go values to and from JSON as directed by
// schema descriptors.
//
// A Resolver builds one codec per descriptor and keeps it:
//
//	r, err := codec.NewResolver(codec.WithRegistry(reg))
//	c, err := r.CodecFor(petType)
//	d, err := c.Marshal(&Pet{Name: "Rex"})
//
// Containers recurse into their element, key and value descriptors.
// Objects read and write their declared properties. Objects below a
// root carrying schema.TypeInfo are written with a discriminator and
// decoded as the variant it names.
//
// Construction problems are reported by CodecFor as *ConfigurationError.
// Encoding and decoding report *EncodingError and *DecodingError, whose
// Kind can be tested with errors.Is.
package codec
