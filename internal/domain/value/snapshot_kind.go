package value

type SnapshotKind string

const (
	SnapshotPrice    SnapshotKind = "price"
	SnapshotLegality SnapshotKind = "legality"
)
