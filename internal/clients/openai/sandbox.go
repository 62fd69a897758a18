package openai

// sandboxPayload is the canned draft returned for sandbox credentials. It
// mirrors the structure the draft pipeline expects so sandbox runs exercise
// the full parse/score/sanitize path.
const sandboxPayload = `{
  "title": "Luminoso trilocale con balcone nel cuore di Milano",
  "summary": "Splendido appartamento di 85mq situato al terzo piano in Via Roma 15, zona Porta Romana. Completamente ristrutturato, offre ambienti luminosi e ben distribuiti con balcone panoramico.",
  "description": "Questo elegante trilocale rappresenta un'eccellente opportunità abitativa nel prestigioso quartiere di Porta Romana.\n\nL'immobile, completamente ristrutturato, si sviluppa su una superficie di 85mq al terzo piano di un edificio signorile. Gli spazi sono stati ottimizzati per garantire massima funzionalità e comfort.\n\nLa zona giorno è caratterizzata da ambienti luminosi grazie alla doppia esposizione, mentre la zona notte offre privacy e tranquillità. Il balcone rappresenta un valore aggiunto, perfetto per momenti di relax all'aria aperta.\n\nLa posizione strategica permette di raggiungere facilmente il centro storico e i principali servizi della città, con la metro a pochi minuti a piedi.\n\nLe spese condominiali sono contenute e l'immobile è immediatamente disponibile.",
  "highlights": [
    "Appartamento completamente ristrutturato",
    "Balcone con esposizione luminosa",
    "Posizione strategica a Porta Romana",
    "85mq ben distribuiti",
    "Terzo piano in edificio signorile"
  ],
  "disclaimer": "Le informazioni sono indicative e non costituiscono vincolo contrattuale. È necessario verificare tutti i dettagli prima della conclusione.",
  "seo": {
    "keywords": ["trilocale Milano", "appartamento Porta Romana", "vendita immobile", "balcone", "ristrutturato"],
    "metaDescription": "Luminoso trilocale ristrutturato con balcone a Porta Romana, Milano. 85mq, terzo piano, posizione strategica. Scopri di più."
  }
}`
