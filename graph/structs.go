package graph

//*******************************************
// graph structs
//*******************************************

type Edge struct {
	NodeA int32
	NodeB int32
}

//*******************************************
// edgeref struct
//*******************************************

type EdgeRef struct {
	EdgeID  int32
	OtherID int32
}
