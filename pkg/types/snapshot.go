package types

// StateSnapshot.state:
//   id: string
//   round: 1 | 2 | 3
//   pick: number // 1-based within the round
//   direction: "clockwise" | "counterclockwise"
//   status: "setup" | "active" | "complete"
//   players: [
//     id, name, human, seat, personality,
//     picked: Card[],
//     queue: Pack[] // head is the pack in front of the player
//   ]
//   history: Action[] // enough to replay the draft
