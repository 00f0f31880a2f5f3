package index

var (
	bNodes    = []byte("nodes")     // kind -> sub-bucket: slug -> nodeJSON
	bOrder    = []byte("order")     // kind -> sub-bucket: orderKey -> 1
	bIdxLang  = []byte("idx_lang")  // kind -> folded language -> orderKey -> 1
	bIdxTopic = []byte("idx_topic") // kind -> folded topic -> orderKey -> 1
	bIDs      = []byte("ids")       // id -> kind 0x00 slug
	bTracks   = []byte("tracks")    // slug -> trackJSON
)

var allBuckets = [][]byte{bNodes, bOrder, bIdxLang, bIdxTopic, bIDs, bTracks}
