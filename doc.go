package shelf

// Package shelf provides:
//
// - Schema-driven conversion between live Go structs and plain JSON-compatible data (Manifest/Construct)
// - Per-level version tags on persisted records and ordered upgrade chains for older data
// - Schema inheritance (Extend) and deferred construction (Defer) for nested types
// - A stable error model via Issues (JSON Pointer, code, message)
//
// Design policy:
// - Type identity is an explicit token built with Define; nothing is inferred from names.
// - Registries are explicit values; Default() backs the package-level helpers.
// - Version ordering lives under version/, the CLI under cmd/shelf.
//
// Typical usage:
//
//  var UserType = shelf.Define[User]("app.User", NewUser)
//
//  reg := shelf.NewRegistry()
//  reg.Register(UserType, "1.2.0", shelf.Fields{"name": shelf.Primitive, "address": AddressType}).
//      Upgrade("1.0.0", renameFullName)
//
//  rec, err := reg.Manifest(ctx, user)
//  v, err := reg.Construct(ctx, UserType, rec)
//
